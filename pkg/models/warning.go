package models

// WarningDocument is a user's warning record in the "warnings" collection.
// Lines holds the rendered entries in append order.
type WarningDocument struct {
	Key   string   `bson:"_id" json:"key"`
	Lines []string `bson:"lines" json:"lines"`
}
