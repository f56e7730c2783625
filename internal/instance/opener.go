package instance

// Opener says which installation opens an item: a specific instance, or
// whatever the environment associates with the item's file type.
type Opener struct {
	Instance *Instance
}

// Auto reports whether the environment decides.
func (o Opener) Auto() bool {
	return o.Instance == nil
}

// Executable returns the product path of the chosen instance, or "" when the
// environment decides.
func (o Opener) Executable() string {
	if o.Instance == nil {
		return ""
	}
	return o.Instance.ProductPath
}

func (o Opener) String() string {
	if o.Instance == nil {
		return "default"
	}
	return o.Instance.Name + " (" + o.Instance.ID + ")"
}

// ResolveOpener picks the instance with ID preferred. An empty or unknown
// preference lets the environment decide.
func ResolveOpener(instances []Instance, preferred string) Opener {
	if preferred == "" {
		return Opener{}
	}
	for i := range instances {
		if instances[i].ID == preferred {
			inst := instances[i]
			return Opener{Instance: &inst}
		}
	}
	return Opener{}
}
