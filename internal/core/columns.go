package core

// ResolveColumns maps a header row to column roles.
// For each role the first header cell, scanning left to right, that exactly
// equals one of the role's synonyms wins. Cells are compared verbatim.
func ResolveColumns(header []string, synonyms Synonyms) ColumnMapping {
	return ColumnMapping{
		Product: firstMatch(header, synonyms.forRole(RoleProduct)),
		Price:   firstMatch(header, synonyms.forRole(RolePrice)),
		Weight:  firstMatch(header, synonyms.forRole(RoleWeight)),
	}
}

func firstMatch(header, names []string) int {
	for i, h := range header {
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}
