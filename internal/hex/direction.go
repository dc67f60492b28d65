package hex

// Direction names one of the six edges of a pointy-top hex, clockwise from
// the north-east edge.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// DirectionCount is the number of edges around a cell.
const DirectionCount = 6

// Directions lists every direction in ascending order.
var Directions = [DirectionCount]Direction{NE, E, SE, SW, W, NW}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d + 3) % DirectionCount
}

// Previous returns the counterclockwise neighbour direction.
func (d Direction) Previous() Direction {
	return (d + DirectionCount - 1) % DirectionCount
}

// Next returns the clockwise neighbour direction.
func (d Direction) Next() Direction {
	return (d + 1) % DirectionCount
}

// Previous2 skips one direction counterclockwise.
func (d Direction) Previous2() Direction {
	return (d + DirectionCount - 2) % DirectionCount
}

// Next2 skips one direction clockwise.
func (d Direction) Next2() Direction {
	return (d + 2) % DirectionCount
}

// Valid reports whether d is one of the six directions.
func (d Direction) Valid() bool {
	return d < DirectionCount
}

func (d Direction) String() string {
	switch d {
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return "Invalid"
	}
}
