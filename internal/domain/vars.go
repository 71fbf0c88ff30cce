package domain

// Vars is a key/value store used for templating and runtime variable resolution.
type Vars map[string]string

// Merge merges layers left to right (later layers win) into a new map.
func Merge(layers ...Vars) Vars {
	out := Vars{}
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}
