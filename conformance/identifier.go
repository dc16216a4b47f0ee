package conformance

import (
	"errors"
	"fmt"
	"strings"
)

// Requirement levels of the upstream conformance suite.
const (
	LevelRequired    = "Required"
	LevelRecommended = "Recommended"
)

// Payload formats, derived from the third identifier segment.
const (
	FormatWire = "Wire format"
	FormatJSON = "JSON"
	FormatText = "Text format"
)

var (
	// ErrMalformedIdentifier is returned for identifiers that violate the
	// dot-separated naming scheme.
	ErrMalformedIdentifier = errors.New("malformed test identifier")
	// ErrUnknownRequirementLevel is returned when the leading identifier
	// segment is neither Required nor Recommended.
	ErrUnknownRequirementLevel = errors.New("unknown requirement level")
)

// ParsePath splits a dot-separated test identifier into its segments.
// Identifiers must be non-empty and must not contain empty segments.
func ParsePath(id string) ([]string, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrMalformedIdentifier)
	}
	segments := strings.Split(id, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q contains an empty segment", ErrMalformedIdentifier, id)
		}
	}
	return segments, nil
}

// Test is the classified form of a single conformance test identifier,
// e.g. "Required.Proto3.JsonInput.FieldMaskTooManyUnderscore".
type Test struct {
	Level        string
	ProtoVersion string
	Format       string
}

// ParseTest classifies a test identifier by requirement level, protobuf
// version and payload format. Identifiers need at least three segments:
// the level, the version and the test type.
func ParseTest(id string) (Test, error) {
	segments, err := ParsePath(id)
	if err != nil {
		return Test{}, err
	}
	if len(segments) < 3 {
		return Test{}, fmt.Errorf("%w: %q has %d segments, want at least 3",
			ErrMalformedIdentifier, id, len(segments))
	}
	level := segments[0]
	if level != LevelRequired && level != LevelRecommended {
		return Test{}, fmt.Errorf("%w: %q in %q", ErrUnknownRequirementLevel, level, id)
	}
	return Test{
		Level:        level,
		ProtoVersion: normalizeProtoVersion(segments[1]),
		Format:       testFormat(segments[2]),
	}, nil
}

// normalizeProtoVersion folds Editions_Proto2/Editions_Proto3 into plain
// Proto2/Proto3. Unrecognized versions pass through unchanged so new
// edition names keep classifying without a release.
func normalizeProtoVersion(version string) string {
	switch {
	case strings.Contains(version, "Proto2"):
		return "Proto2"
	case strings.Contains(version, "Proto3"):
		return "Proto3"
	default:
		return version
	}
}

// testFormat maps a test type segment (JsonInput, ProtobufInput,
// TextFormatInput, ...) to its payload format. Everything unrecognized is
// wire format.
func testFormat(segment string) string {
	switch {
	case strings.Contains(segment, "Json"):
		return FormatJSON
	case strings.Contains(segment, "TextFormat"):
		return FormatText
	default:
		return FormatWire
	}
}
