package invoice

import "context"

// BuildDocument expone el armado del documento a los tests del paquete externo.
func BuildDocument(uc *UseCase, ctx context.Context, transactionID int64) (Document, error) {
	doc, _, err := uc.document(ctx, transactionID)
	return doc, err
}
