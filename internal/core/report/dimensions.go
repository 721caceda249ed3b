package report

import "slices"

// Sentinel values substituted for missing dimensions so grouping never sees an empty key.
const (
	NoAgency = "(No Agency)"
	NoIssuer = "(No Issuer)"
	NoApp    = "(No App)"

	// All labels a row that has been rolled up across an entire dimension.
	All = "(all)"
)

// Dimensions are the grouping attributes shared by every report row.
type Dimensions struct {
	Agency       string `json:"agency"`
	Issuer       string `json:"issuer"`
	FriendlyName string `json:"friendly_name"`
	IAA          string `json:"iaa,omitempty"`
}

// Normalize returns a copy of d with empty agency, issuer and friendly name replaced
// by their sentinels. The input is never modified.
func Normalize(d Dimensions) Dimensions {
	out := d
	if out.Agency == "" {
		out.Agency = NoAgency
	}
	if out.Issuer == "" {
		out.Issuer = NoIssuer
	}
	if out.FriendlyName == "" {
		out.FriendlyName = NoApp
	}
	return out
}

// Agencies returns the distinct agencies of dims in ascending order.
func Agencies(dims []Dimensions) []string {
	seen := make(map[string]struct{}, len(dims))
	out := make([]string, 0)
	for _, d := range dims {
		if d.Agency == "" {
			continue
		}
		if _, ok := seen[d.Agency]; ok {
			continue
		}
		seen[d.Agency] = struct{}{}
		out = append(out, d.Agency)
	}
	slices.Sort(out)
	return out
}
