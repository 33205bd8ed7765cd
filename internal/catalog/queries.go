package catalog

import "strings"

// ByCategory returns all entries in a category, table order.
func ByCategory(c Category) []Entry {
	var out []Entry
	for _, m := range models {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

// Recommended returns the entries flagged as good defaults.
func Recommended() []Entry {
	var out []Entry
	for _, m := range models {
		if m.Recommended {
			out = append(out, m)
		}
	}
	return out
}

// ThatFit returns the entries that load comfortably in availableGB.
func ThatFit(availableGB float64) []Entry {
	var out []Entry
	for _, m := range models {
		if m.FitsMemory(availableGB) {
			out = append(out, m)
		}
	}
	return out
}

// BestForMemory picks the model to suggest for availableGB: the largest
// recommended entry that fits, else the largest fitting entry, else the
// smallest entry overall so there is always a suggestion.
func BestForMemory(availableGB float64) Entry {
	fitting := ThatFit(availableGB)

	var best Entry
	found := false
	for _, m := range fitting {
		if m.Recommended && (!found || m.SizeGB > best.SizeGB) {
			best, found = m, true
		}
	}
	if found {
		return best
	}
	for _, m := range fitting {
		if !found || m.SizeGB > best.SizeGB {
			best, found = m, true
		}
	}
	if found {
		return best
	}
	smallest := models[0]
	for _, m := range models[1:] {
		if m.SizeGB < smallest.SizeGB {
			smallest = m
		}
	}
	return smallest
}

// Search returns entries whose name or description contains query,
// case-insensitively.
func Search(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Description), q) {
			out = append(out, m)
		}
	}
	return out
}

// ByRepo looks up an entry by its repository reference.
func ByRepo(repo string) (Entry, bool) {
	for _, m := range models {
		if m.Repo == repo {
			return m, true
		}
	}
	return Entry{}, false
}
