package domain

import "time"

// Case stored aggregate root, loaded with its full Specimen/Block/Slide tree.
// Child slices are in creation order.
type Case struct {
	ID         int64
	Identifier string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Specimens  []Specimen
}

// Specimen belongs to exactly one Case.
type Specimen struct {
	ID        int64
	CaseID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Blocks    []Block
}

// Block belongs to exactly one Specimen.
type Block struct {
	ID         int64
	SpecimenID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Slides     []Slide
}

// Slide belongs to exactly one Block.
type Slide struct {
	ID        int64
	BlockID   int64
	Staining  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCase is the nested create shape handed to a repository: no ids, no timestamps.
type NewCase struct {
	Identifier string
	Specimens  []NewSpecimen
}

type NewSpecimen struct {
	Blocks []NewBlock
}

type NewBlock struct {
	Slides []NewSlide
}

type NewSlide struct {
	Staining string
}
