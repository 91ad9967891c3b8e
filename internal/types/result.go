package types

import (
	"encoding/json"
	"fmt"
	"os"
)

func EncodeResult(r Result) ([]byte, error) {
	if r.Clips == nil {
		r.Clips = []Clip{}
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return b, nil
}

func DecodeResult(b []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal result: %w", err)
	}
	if r.Clips == nil {
		r.Clips = []Clip{}
	}
	return r, nil
}

func WriteResult(path string, r Result) error {
	b, err := EncodeResult(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func ReadResult(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return DecodeResult(b)
}
