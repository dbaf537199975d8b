package dataprovider

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-refs/pkg/record"
)

// Fixtures is the document shape accepted by DecodeFixtures:
//
//	{"resources": {"users": [{"id": 1, "name": "Ada"}]}}
type Fixtures struct {
	Resources map[string][]record.Record `json:"resources"`
}

// DecodeFixtures reads a fixture document and returns a Memory provider seeded
// with it. Numbers decode as json.Number so identifiers keep their literal
// form.
func DecodeFixtures(r io.Reader) (*Memory, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var doc Fixtures
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("dataprovider: decode fixtures: %w", err)
	}
	if len(doc.Resources) == 0 {
		return nil, fmt.Errorf("dataprovider: fixtures declare no resources")
	}
	return NewMemory(doc.Resources), nil
}
