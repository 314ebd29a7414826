package documents

import "context"

type Repository interface {
	Create(ctx context.Context, d Document) error
	Get(ctx context.Context, collection, key string) (Document, error)

	// List devuelve todos los documentos de la colección ordenados por clave.
	List(ctx context.Context, collection string) ([]Document, error)
}
