package model

import "fmt"

// BiometricType is the closed set of measurement types a record can carry.
type BiometricType string

const (
	TypeFingerprint BiometricType = "fingerprint"
	TypeFace        BiometricType = "face"
	TypeVoice       BiometricType = "voice"
	TypeIris        BiometricType = "iris"
	TypePalm        BiometricType = "palm"
)

// Valid reports whether t is one of the defined biometric types.
func (t BiometricType) Valid() bool {
	switch t {
	case TypeFingerprint, TypeFace, TypeVoice, TypeIris, TypePalm:
		return true
	}
	return false
}

// ParseBiometricType converts a string into a BiometricType.
func ParseBiometricType(s string) (BiometricType, error) {
	t := BiometricType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown biometric type %q", s)
	}
	return t, nil
}
