package models

// Counter is a named sequence. The "caseNumber" counter numbers every
// punishment record.
type Counter struct {
	ID  string `bson:"_id" json:"id"`
	Seq int64  `bson:"seq" json:"seq"`
}

// CaseCounterID is the counter shared by all punishment records.
const CaseCounterID = "caseNumber"
