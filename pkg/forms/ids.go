package forms

// Identifiers of the bundled forms.
const (
	Aadhaar        = "aadhaar"
	PAN            = "pan"
	VoterID        = "voter-id"
	Birth          = "birth"
	Caste          = "caste"
	Domicile       = "domicile"
	Income         = "income"
	EWS            = "ews"
	Marriage       = "marriage"
	NonCreamyLayer = "non-creamy-layer"
	Udyam          = "udyam"
)
