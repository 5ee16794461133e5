package hex

// Ring returns the coordinates at exactly distance k from c, walking
// counter-clockwise from the south-west corner. Ring(c, 0) is [c].
func Ring(c Axial, k int) []Axial {
	if k <= 0 {
		return []Axial{c}
	}
	out := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[4].Scale(k))
	for side := range Directions {
		for i := 0; i < k; i++ {
			out = append(out, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return out
}

// Disk returns every coordinate within distance r of c, ring by ring from
// the center outward.
func Disk(c Axial, r int) []Axial {
	out := make([]Axial, 0, 1+3*r*(r+1))
	for k := 0; k <= r; k++ {
		out = append(out, Ring(c, k)...)
	}
	return out
}
