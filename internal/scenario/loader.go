package scenario

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML scenario file and returns it with the raw bytes
func Load(path string) (*Scenario, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	return sc, data, nil
}

// Parse decodes YAML over Default() and validates.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Parse(data []byte) (*Scenario, error) {
	sc := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}

	if err := Validate(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Hash generates SHA256 hash from Scenario (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(sc *Scenario) (string, error) {
	jsonBytes, err := json.Marshal(sc)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
