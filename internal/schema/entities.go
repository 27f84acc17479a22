package schema

// CurrentVersion is the newest client schema version.
//
//	v1: initial profiles and weights tables
//	v2: profiles.default_unit
//	v3: weights.date_string
const CurrentVersion = 3

const ownerField = "supabase_id"

// Profiles is the mapping of the profiles entity type.
var Profiles = NewEntity("profiles", ownerField,
	Column{Client: "email", Server: "email", Kind: KindText},
	Column{Client: "name", Server: "name", Kind: KindText},
	Column{Client: "gender", Server: "gender", Kind: KindText},
	Column{Client: "height", Server: "height", Kind: KindNumber},
	Column{Client: "height_unit", Server: "height_unit", Kind: KindText},
	Column{Client: "activity_level", Server: "activity_level", Kind: KindText},
	Column{Client: "calorie_surplus", Server: "calorie_surplus", Kind: KindNumber},
	Column{Client: "dob", Server: "dob", Kind: KindTimestamp},
	Column{Client: "target_weight", Server: "target_weight", Kind: KindNumber},
	Column{Client: "target_weight_unit", Server: "target_weight_unit", Kind: KindText},
	Column{Client: "default_unit", Server: "default_unit", Kind: KindText, Since: 2},
)

// Weights is the mapping of the weights entity type.
var Weights = NewEntity("weights", ownerField,
	Column{Client: "profile_id", Server: "profile_id", Kind: KindText},
	Column{Client: "weight", Server: "weight", Kind: KindNumber},
	Column{Client: "unit", Server: "unit", Kind: KindText},
	Column{Client: "date", Server: "measured_at", Kind: KindTimestamp},
	Column{Client: "date_string", Server: "date_string", Kind: KindText, Since: 3},
)

// Default returns the registry of the synchronized entity types. Profiles
// come first so that a push creates profiles before the weights that
// reference them.
func Default() *Registry {
	return NewRegistry(CurrentVersion, Profiles, Weights)
}
