// Package forms bundles the application form definitions and the named
// domain checks their steps reference.
//
// Definitions are YAML documents, one per form. Load decodes and builds every
// document found in a file system; Catalog returns the embedded set:
//
//	catalog, err := forms.Catalog()
//	def, ok := catalog.Get(forms.EWS)
//	w := wizard.New(def, wizard.WithChecks(forms.Checks()))
package forms
