package aggregate

import "github.com/dukcapil-tegal/ajuan-monitor/internal/domain"

const (
	CategoryGeneralInfo  = "Informasi Umum"
	CategoryCivilRecords = "Pencatatan Sipil"
	CategoryPopulation   = "Pendaftaran Penduduk"

	ServiceIKDActivation = "Aktivasi IKD"
	ServiceBlankIDCard   = "Blanko KTP"

	DefaultRank = 99
)

// ExclusionRule reports whether a service's verification breakdown is meaningless.
// categoryName is empty when the service's category does not resolve.
type ExclusionRule func(serviceName, categoryName string) bool

// StatusLabels names the buckets of the verification breakdown.
// An empty Placeholder means the breakdown has only two buckets.
type StatusLabels struct {
	Verified    string
	Unverified  string
	Placeholder string
}

type Config struct {
	Excluded    ExclusionRule
	Priority    map[string]int
	DefaultRank int
	Labels      StatusLabels
	// Unresolved is shown where a category or service name cannot be resolved.
	Unresolved string
}

var excludedServices = map[string]struct{}{
	ServiceIKDActivation: {},
	ServiceBlankIDCard:   {},
}

// DefaultExclusion excludes counter-only services and everything under "Informasi Umum".
func DefaultExclusion(serviceName, categoryName string) bool {
	if _, ok := excludedServices[serviceName]; ok {
		return true
	}
	return categoryName == CategoryGeneralInfo
}

func NoExclusion(string, string) bool { return false }

func DefaultPriority() map[string]int {
	return map[string]int{
		CategoryGeneralInfo:  1,
		CategoryCivilRecords: 2,
		CategoryPopulation:   3,
	}
}

// AdminConfig is used by the office dashboard. Reviewers verify every row, so
// no service has its verification split suppressed.
func AdminConfig() Config {
	return Config{
		Excluded:    NoExclusion,
		Priority:    DefaultPriority(),
		DefaultRank: DefaultRank,
		Labels: StatusLabels{
			Verified:   "Sudah Verifikasi",
			Unverified: "Belum Verifikasi",
		},
		Unresolved: "-",
	}
}

// PublicConfig is used by the read-only public mirror.
func PublicConfig() Config {
	return Config{
		Excluded:    DefaultExclusion,
		Priority:    DefaultPriority(),
		DefaultRank: DefaultRank,
		Labels: StatusLabels{
			Verified:    "Sudah Diproses",
			Unverified:  "Belum Diproses",
			Placeholder: "Terbit TTE",
		},
		Unresolved: domain.Unresolved,
	}
}

func (c Config) withDefaults() Config {
	if c.Excluded == nil {
		c.Excluded = NoExclusion
	}
	if c.Priority == nil {
		c.Priority = map[string]int{}
	}
	if c.DefaultRank == 0 {
		c.DefaultRank = DefaultRank
	}
	if c.Labels.Verified == "" {
		c.Labels.Verified = "Verified"
	}
	if c.Labels.Unverified == "" {
		c.Labels.Unverified = "Unverified"
	}
	if c.Unresolved == "" {
		c.Unresolved = domain.Unresolved
	}
	return c
}
