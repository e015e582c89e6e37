package domain

import "errors"

var (
	// ErrTooManyRequests indica que a identidade estourou o teto de
	// requisições do processo.
	ErrTooManyRequests = errors.New("Too Many Requests")

	// ErrCollectionNotFound indica que a coleção alvo ainda não foi
	// provisionada no armazém de documentos.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrFileNotFound indica que o id de arquivo não existe no armazém.
	ErrFileNotFound = errors.New("file not found")
)
