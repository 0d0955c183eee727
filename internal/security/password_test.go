package security_test

import (
	"testing"

	"libraryhub/internal/security"
)

func TestHashPasswordProducesDifferentHashes(t *testing.T) {
	h1, err := security.HashPassword("sam@123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	h2, err := security.HashPassword("sam@123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// salt is randomized per call
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for same plaintext, got identical")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	tests := []struct {
		name    string
		hash    string
		plain   string
		wantErr bool
	}{
		{name: "match", hash: hash, plain: "correct horse", wantErr: false},
		{name: "mismatch", hash: hash, plain: "battery staple", wantErr: true},
		{name: "garbage_hash", hash: "not-a-bcrypt-hash", plain: "anything", wantErr: true},
		{name: "empty_plain", hash: hash, plain: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			err := security.CheckPassword(tt.hash, tt.plain)

			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPassword err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
