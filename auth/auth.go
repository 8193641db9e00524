// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// RoomCodeAlphabet is the base36 upper-case room code alphabet
const RoomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultRoomCodeLength is the length of generated room codes
const DefaultRoomCodeLength = 5

var ErrInvalidLength = errors.New("length must be positive")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	if byteLen <= 0 {
		return "", ErrInvalidLength
	}
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateRoomCode creates a random upper-case alphanumeric room code.
// Uniqueness is the caller's job; the registry re-checks and retries.
func GenerateRoomCode(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	// Rejection sampling keeps the distribution uniform: 252 is the largest
	// multiple of 36 below 256.
	const limit = 256 - 256%len(RoomCodeAlphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, RoomCodeAlphabet[int(b)%len(RoomCodeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// IsRoomCode reports whether s has the shape of a generated room code
func IsRoomCode(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

// GenerateClientID creates the identity for a new connection.
// Random UUIDs are never reused, so a reconnect is always a new player.
func GenerateClientID() string {
	return uuid.NewString()
}
