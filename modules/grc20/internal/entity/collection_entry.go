package entity

type CollectionEntry struct {
	Tick          string
	Code          string
	InscriptionId string
	BlockHeight   int64
}
