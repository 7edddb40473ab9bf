package catalogs

// Reference tile set, identical to configs/tiles.json.
var referenceDefs = []TileDef{
	{Name: "Mecatol Rex", Resource: 1, Influence: 6, Center: true},
	{Name: "Bereg, Lirta IV", Resource: 5, Influence: 4},
	{Name: "Abyz, Fria", Resource: 5, Influence: 0},
	{Name: "New Albion, Starpoint", Resource: 4, Influence: 2},
	{Name: "Arnor, Lor", Resource: 3, Influence: 3},
	{Name: "Mellon, Zohbat", Resource: 3, Influence: 3},
	{Name: "Corneeq, Resculon", Resource: 3, Influence: 2},
	{Name: "Lodor", Resource: 3, Influence: 1, Flags: []string{"WORMHOLE"}},
	{Name: "Lazar, Sakulag", Resource: 3, Influence: 1},
	{Name: "Centauri, Gral", Resource: 2, Influence: 4},
	{Name: "Tequ'ran, Torkan", Resource: 2, Influence: 3},
	{Name: "Vefut II", Resource: 2, Influence: 2},
	{Name: "Saudor", Resource: 2, Influence: 2},
	{Name: "Quann", Resource: 2, Influence: 1, Flags: []string{"WORMHOLE"}},
	{Name: "Arinam, Meer", Resource: 1, Influence: 6},
	{Name: "Qucen'n, Rarron", Resource: 1, Influence: 5},
	{Name: "Mehar Xull", Resource: 1, Influence: 3},
	{Name: "Dal Bootha, Xxehan", Resource: 1, Influence: 3},
	{Name: "Wellon", Resource: 1, Influence: 2},
	{Name: "Tar'mann", Resource: 1, Influence: 1},
	{Name: "Thibah", Resource: 1, Influence: 1},
	{Name: "A Wormhole", Flags: []string{"WORMHOLE"}},
	{Name: "B Wormhole", Flags: []string{"WORMHOLE"}},
	{Name: "Asteroid Field", Flags: []string{"ANOMALY"}},
	{Name: "Asteroid Field", Flags: []string{"ANOMALY"}},
	{Name: "Supernova", Flags: []string{"ANOMALY"}},
	{Name: "Nebula", Flags: []string{"ANOMALY"}},
	{Name: "Gravity Rift", Flags: []string{"ANOMALY"}},
	{Name: "Blank", Flags: []string{"BLANK"}},
	{Name: "Blank", Flags: []string{"BLANK"}},
	{Name: "Blank", Flags: []string{"BLANK"}},
	{Name: "Blank", Flags: []string{"BLANK"}},
	{Name: "Blank", Flags: []string{"BLANK"}},
}

// Default returns the built-in reference catalog.
func Default() *Catalog {
	c, err := New(referenceDefs)
	if err != nil {
		panic(err)
	}
	return c
}
