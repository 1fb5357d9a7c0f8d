package hash

import (
	"errors"
	"io"
	"strings"
	"testing"

	"bsnap/internal/config"
)

func TestStreamHasher_Hash(t *testing.T) {
	tests := []struct {
		name   string
		hasher *StreamHasher
		input  string
		want   string
	}{
		{
			name:   "sha256 empty input",
			hasher: NewSHA256Hasher(),
			input:  "",
			want:   "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:   "sha256 abc",
			hasher: NewSHA256Hasher(),
			input:  "abc",
			want:   "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:   "blake3 empty input",
			hasher: NewBLAKE3Hasher(),
			input:  "",
			want:   "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.hasher.Hash(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Hash() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStreamHasher_Deterministic(t *testing.T) {
	for _, h := range []*StreamHasher{NewSHA256Hasher(), NewBLAKE3Hasher()} {
		t.Run(h.Algorithm(), func(t *testing.T) {
			a, err := h.Hash(strings.NewReader("same bytes"))
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			b, err := h.Hash(strings.NewReader("same bytes"))
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if a != b {
				t.Errorf("digests differ: %s vs %s", a, b)
			}
			c, _ := h.Hash(strings.NewReader("other bytes"))
			if a == c {
				t.Error("different content produced the same digest")
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device error") }

func TestStreamHasher_ReadFailure(t *testing.T) {
	got, err := NewSHA256Hasher().Hash(io.MultiReader(strings.NewReader("partial"), failingReader{}))
	if err == nil {
		t.Fatal("Hash() expected error on read failure")
	}
	if got != "" {
		t.Errorf("Hash() returned partial digest %q", got)
	}
}

func TestNewHasherFromConfig(t *testing.T) {
	tests := []struct {
		algorithm string
		want      string
		wantErr   bool
	}{
		{algorithm: "", want: AlgorithmSHA256},
		{algorithm: "sha256", want: AlgorithmSHA256},
		{algorithm: "blake3", want: AlgorithmBLAKE3},
		{algorithm: "md5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			h, err := NewHasherFromConfig(config.HashConfig{Algorithm: tt.algorithm})
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewHasherFromConfig() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewHasherFromConfig() error = %v", err)
			}
			if h.Algorithm() != tt.want {
				t.Errorf("Algorithm() = %q, want %q", h.Algorithm(), tt.want)
			}
		})
	}
}
