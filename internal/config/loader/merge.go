package loader

// Merge layers settings maps into a new map. Later layers win; nested
// sections are merged key by key. The layers are not modified.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		mergeInto(out, layer)
	}
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		section, isSection := v.(map[string]any)
		if !isSection {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(section))
			dst[k] = existing
		}
		mergeInto(existing, section)
	}
}
