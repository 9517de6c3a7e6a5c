package types

// LineItems carries the opaque item payload of a purchase order. The backend
// stores it verbatim and never interprets individual entries.
type LineItems []map[string]any
