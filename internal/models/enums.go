package models

// ImageKind names the slot a photo occupies in a look.
type ImageKind string

const (
	ImageKindInspo ImageKind = "inspo"
	ImageKindMe    ImageKind = "me"
)

// IsValid reports whether k is one of the two known slots.
func (k ImageKind) IsValid() bool {
	return k == ImageKindInspo || k == ImageKindMe
}
