package invoice

import "context"

// Renderer convierte un Document en bytes de un formato concreto.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// Cache almacena artefactos ya renderizados. Get devuelve (nil, nil) si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string) (*Artifact, error)
	Set(ctx context.Context, key string, artifact *Artifact) error
}
