package utils

import "github.com/google/uuid"

func GenerateID() string {
	return uuid.New().String()
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
