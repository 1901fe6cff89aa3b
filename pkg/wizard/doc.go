// Package wizard sequences a form's steps. A Wizard owns the field and slot
// stores of one form instance, gates every forward transition on the step
// validator and hands the final payload to a Submitter.
//
// States are Step(1)..Step(N) plus the terminal Submitted state. Retreating
// from the first step reports Exit so the host can leave the form. Editable
// forms may jump from the review step back to an earlier step; the next
// successful advance returns straight to review.
package wizard
