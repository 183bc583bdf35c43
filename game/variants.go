package game

// Variants hands each genotype a palette slot the first time it is seen.
// Slots wrap once the palette is exhausted and never change afterwards,
// so a lineage keeps its color for the whole session.
type Variants struct {
	size  int
	slots map[string]int
	next  int
}

// NewVariants returns an assigner for a palette of size colors.
func NewVariants(size int) *Variants {
	if size < 1 {
		size = 1
	}
	return &Variants{size: size, slots: make(map[string]int)}
}

// Slot returns the palette index for a genotype.
func (v *Variants) Slot(genotype string) int {
	if s, ok := v.slots[genotype]; ok {
		return s
	}
	s := v.next % v.size
	v.slots[genotype] = s
	v.next++
	return s
}

// Len returns the number of genotypes seen so far.
func (v *Variants) Len() int {
	return len(v.slots)
}
