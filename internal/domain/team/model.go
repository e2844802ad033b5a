package team

// Team is upserted from feed data and never deleted by the import pipeline.
type Team struct {
	ID         int64
	ExternalID int64
	Name       string
	ShortName  string
	IconURL    string
}
