package aei

import "slices"

// Standard option names used by the SDK itself.
const (
	// OptionTCMove is the per-move time limit in seconds.
	OptionTCMove = "tcmove"
)

// EngineOption describes a standard AEI engine option. Engines also accept
// arbitrary custom options; this catalog only covers the names every
// conforming engine understands.
type EngineOption struct {
	// Name is the option name as sent in setoption.
	Name string
	// Description is a short human-readable summary.
	Description string
}

var catalog = []EngineOption{
	{Name: "tcmove", Description: "seconds the engine may think per move"},
	{Name: "tcreserve", Description: "starting time reserve in seconds"},
	{Name: "tcpercent", Description: "percent of unused move time added to the reserve"},
	{Name: "tcmax", Description: "maximum size of the reserve in seconds"},
	{Name: "tctotal", Description: "total game time limit in seconds"},
	{Name: "tcturns", Description: "maximum number of turns in the game"},
	{Name: "tcturntime", Description: "hard per-turn time cap in seconds"},
	{Name: "hash", Description: "transposition table size in megabytes"},
	{Name: "depth", Description: "fixed search depth in steps"},
}

// KnownOptions returns a copy of the standard option catalog.
func KnownOptions() []EngineOption {
	out := make([]EngineOption, len(catalog))
	copy(out, catalog)

	return out
}

// LookupOption finds a standard option by name. Returns nil for unknown
// names; unknown names are still valid to send.
func LookupOption(name string) *EngineOption {
	for i := range catalog {
		if catalog[i].Name == name {
			o := catalog[i]

			return &o
		}
	}

	return nil
}

// IsKnownOption reports whether name is in the standard catalog.
func IsKnownOption(name string) bool {
	return slices.ContainsFunc(catalog, func(o EngineOption) bool {
		return o.Name == name
	})
}
