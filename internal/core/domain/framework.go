package domain

const unknownDescription = "Unknown"

// Framework identifies the regulatory framework a report is validated against.
type Framework string

// Recognised frameworks. Recognition does not imply support: a framework
// is supported only when a registry document exists for it.
const (
	// FrameworkEUMDR is the EU Medical Device Regulation 2017/745.
	FrameworkEUMDR Framework = "eu-mdr"

	// FrameworkFDA510K is the US FDA premarket notification pathway.
	FrameworkFDA510K Framework = "fda-510k"

	// FrameworkISO14155 is clinical investigation practice for medical devices.
	FrameworkISO14155 Framework = "iso-14155"
)

// IsValid returns true if the framework identifier is recognised.
func (f Framework) IsValid() bool {
	switch f {
	case FrameworkEUMDR, FrameworkFDA510K, FrameworkISO14155:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Framework) String() string {
	return string(f)
}

// Description returns a human-readable description of the framework.
func (f Framework) Description() string {
	switch f {
	case FrameworkEUMDR:
		return "EU Medical Device Regulation 2017/745"
	case FrameworkFDA510K:
		return "US FDA 510(k) Premarket Notification"
	case FrameworkISO14155:
		return "ISO 14155 Clinical Investigation of Medical Devices"
	default:
		return unknownDescription
	}
}
