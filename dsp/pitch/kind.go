package pitch

import (
	"fmt"
	"strings"
)

// Kind selects one of the built-in estimators.
type Kind int

const (
	KindAutocorrelation Kind = iota
	KindMcLeod
	KindSmoothedMcLeod
)

var kindNames = [...]string{
	KindAutocorrelation: "Autocorrelation",
	KindMcLeod:          "McLeod",
	KindSmoothedMcLeod:  "Smoothed McLeod",
}

// Kinds returns every built-in estimator kind.
func Kinds() []Kind {
	return []Kind{KindAutocorrelation, KindMcLeod, KindSmoothedMcLeod}
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// String returns the canonical estimator name.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps an estimator name to its Kind. Matching ignores case and
// treats '-' and '_' like spaces, so "smoothed-mcleod" selects
// KindSmoothedMcLeod.
func ParseKind(name string) (Kind, error) {
	key := normalizeKindName(name)
	for i, n := range kindNames {
		if normalizeKindName(n) == key {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEstimatorKind, name)
}

// Set implements the flag.Value interface.
func (k *Kind) Set(name string) error {
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type names the flag value type.
func (k *Kind) Type() string {
	return "estimator"
}

func normalizeKindName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(name))
	return strings.Join(strings.Fields(name), " ")
}
