package uid

import "github.com/google/uuid"

// UUID generates version 7 UUID strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a UUIDv7, or a random UUIDv4 if the v7 source fails.
func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
