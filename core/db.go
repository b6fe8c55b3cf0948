package core

// DBOrdering is a safe ORDER BY clause component. Field must come from a
// repository allow-list, never from raw user input.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
