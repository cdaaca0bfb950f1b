package model

// DiningTable is a physical seating unit in the dining room.  Tables are
// static reference data seeded at startup; capacity bounds the party size
// of any reservation holding the table.
//
// Fields:
//
//	Number   – unique table number shown to staff and customers.
//	Capacity – maximum number of seats, positive.
type DiningTable struct {
	Number   uint32 `json:"number"`   // dining_tables.number
	Capacity uint32 `json:"capacity"` // dining_tables.capacity
}
