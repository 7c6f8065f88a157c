package util

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	tokenRandomLen = 12
)

func GetIDFromString(str *string) string {
	hasher := sha1.New()
	hasher.Write([]byte(*str))

	return hex.EncodeToString(hasher.Sum(nil))
}

// NewRunToken returns a token made of a base36 timestamp and a random suffix.
// It only contains [0-9a-z] so it is safe inside file names and headers.
func NewRunToken() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")

	return strconv.FormatInt(time.Now().UnixMilli(), 36) + random[:tokenRandomLen]
}
