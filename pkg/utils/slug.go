package utils

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GenerateSlug creates a URL-friendly slug from a string
func GenerateSlug(input string) string {
	s := slug.Make(input)
	if s == "" {
		s = uuid.NewString()[:8]
	}
	return s
}

// UniqueSlug appends a short random suffix until exists reports false.
func UniqueSlug(input string, exists func(string) bool) string {
	base := GenerateSlug(input)
	candidate := base
	for i := 0; i < 5 && exists(candidate); i++ {
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return candidate
}
