// Package quotation compila, genera, envía y guarda cotizaciones.
package quotation

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

const (
	mailSubject    = "Cotización"
	mailBody       = "Adjunto PDF de cotización"
	attachmentName = "cotizacion.pdf"
	pdfContentType = "application/pdf"
	processedMsg   = "Cotización procesada"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// TxRunner ejecuta fn dentro de una transacción con el repo de cotizaciones atado a ella.
type TxRunner interface {
	RunQuotation(ctx context.Context, fn func(quoteRepo repository.QuotationRepository) error) error
}

// Deps colaboradores del caso de uso.
type Deps struct {
	Products repository.ProductRepository
	Repo     repository.QuotationRepository
	Tx       TxRunner
	Renderer ports.DocumentRenderer
	Archive  ports.ObjectStore // copia durable del PDF; nil la deshabilita
	Mailer   ports.MailDispatcher
	Log      *logger.Logger
}

// UseCase pipeline de cotización: compilar → generar PDF → enviar → guardar.
type UseCase struct {
	compiler *Compiler
	repo     repository.QuotationRepository
	tx       TxRunner
	renderer ports.DocumentRenderer
	archive  ports.ObjectStore
	mailer   ports.MailDispatcher
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de cotizaciones.
func NewUseCase(d Deps) *UseCase {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		compiler: NewCompiler(d.Products, d.Repo),
		repo:     d.Repo,
		tx:       d.Tx,
		renderer: d.Renderer,
		archive:  d.Archive,
		mailer:   d.Mailer,
		log:      log.Component("quotation"),
	}
}

// Compiler expone el compilador (permite fijar el reloj en tests).
func (uc *UseCase) Compiler() *Compiler { return uc.compiler }

// Create procesa la solicitud completa dentro de la misma llamada. Un fallo de envío no es error:
// queda registrado como Fallido y la cotización se guarda igual.
func (uc *UseCase) Create(ctx context.Context, company *entity.Company, in dto.CreateQuotationRequest) (*dto.QuotationProcessedResponse, error) {
	if company == nil {
		return nil, domain.ErrUnauthorized
	}
	q, err := uc.compiler.Compile(ctx, company.ID, in)
	if err != nil {
		return nil, err
	}
	// Sin token delegado no se genera un PDF que no podría enviarse.
	if !company.MailAuthorized() {
		return nil, domain.ErrMailNotAuthorized
	}

	doc, err := uc.render(ctx, q, company)
	if err != nil {
		return nil, err
	}
	q.Document = doc
	q.DocumentSize = len(doc)

	q.DeliveryStatus = uc.mailer.Send(ctx, ports.MailMessage{
		AccessToken:    company.GmailAccessToken,
		RefreshToken:   company.GmailRefreshToken,
		From:           company.Email,
		To:             q.Customer.Email,
		Subject:        mailSubject,
		Body:           mailBody,
		AttachmentName: attachmentName,
		Attachment:     doc,
	})
	if q.DeliveryStatus != entity.DeliverySent {
		q.DeliveryStatus = entity.DeliveryFailed
		uc.log.Warn().Str("company_id", company.ID).Str("code", q.Code).Msg("envío de cotización fallido")
	}

	err = uc.tx.RunQuotation(ctx, func(repo repository.QuotationRepository) error {
		return repo.Create(ctx, q)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, q.Code)
		}
		uc.log.Error().Err(err).Str("company_id", company.ID).Str("code", q.Code).Msg("guardar cotización")
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	uc.syncCopy(ctx, company.ID, q.ID, q.Code)

	uc.log.Info().Str("company_id", company.ID).Str("code", q.Code).
		Str("estado", string(q.DeliveryStatus)).Msg("cotización procesada")
	return &dto.QuotationProcessedResponse{
		Message: processedMsg,
		ID:      q.ID,
		Code:    q.Code,
		Total:   q.Total,
		Status:  string(q.DeliveryStatus),
	}, nil
}

// List cotizaciones de la empresa sin cargar el PDF.
func (uc *UseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.QuotationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *ToResponse(q))
	}
	return &dto.QuotationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get detalle de una cotización de la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.QuotationResponse, error) {
	q, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return ToResponse(q), nil
}

// Document devuelve el PDF guardado y el código de la cotización.
func (uc *UseCase) Document(ctx context.Context, companyID, id string) ([]byte, string, error) {
	q, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	if q == nil || len(q.Document) == 0 {
		return nil, "", domain.ErrNotFound
	}
	return q.Document, q.Code, nil
}

// Update aplica la actualización bajo bloqueo de la fila y vuelve a generar el PDF guardado.
// No reenvía el correo ni modifica el estado de envío.
func (uc *UseCase) Update(ctx context.Context, company *entity.Company, id string, in dto.UpdateQuotationRequest) (*dto.QuotationResponse, error) {
	if company == nil {
		return nil, domain.ErrUnauthorized
	}
	var updated *entity.Quotation
	err := uc.tx.RunQuotation(ctx, func(repo repository.QuotationRepository) error {
		q, err := repo.GetForUpdate(ctx, company.ID, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if err := uc.compiler.Recompile(ctx, q, in); err != nil {
			return err
		}
		doc, err := uc.render(ctx, q, company)
		if err != nil {
			return err
		}
		q.Document = doc
		q.DocumentSize = len(doc)
		if err := repo.Update(ctx, q); err != nil {
			return err
		}
		updated = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.syncCopy(ctx, company.ID, updated.ID, updated.Code)
	uc.log.Info().Str("company_id", company.ID).Str("code", updated.Code).Msg("cotización actualizada")
	return ToResponse(updated), nil
}

// Delete borra la cotización de la empresa y su copia archivada.
func (uc *UseCase) Delete(ctx context.Context, companyID, id string) error {
	q, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if q == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.dropCopy(ctx, companyID, q.Code)
	uc.log.Info().Str("company_id", companyID).Str("quotation_id", id).Msg("cotización eliminada")
	return nil
}

// render genera el PDF. No toca el archivo: la copia durable se escribe solo tras el commit.
func (uc *UseCase) render(ctx context.Context, q *entity.Quotation, company *entity.Company) ([]byte, error) {
	doc, err := uc.renderer.Render(ctx, q, company.Branding())
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", company.ID).Str("code", q.Code).Msg("generar PDF")
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: documento vacío", domain.ErrRenderFailed)
	}
	return doc, nil
}

// syncCopy vuelve a leer la fila confirmada bajo bloqueo y archiva su PDF mientras lo mantiene.
// Dos actualizaciones concurrentes archivan en el mismo orden en que bloquean la fila, y la
// última escritura siempre es el documento vigente.
func (uc *UseCase) syncCopy(ctx context.Context, companyID, id, code string) {
	if uc.archive == nil {
		return
	}
	err := uc.tx.RunQuotation(ctx, func(repo repository.QuotationRepository) error {
		q, err := repo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if q == nil {
			uc.dropCopy(ctx, companyID, code)
			return nil
		}
		uc.archiveCopy(ctx, companyID, q.Code, q.Document)
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Str("code", code).Msg("releer cotización para archivar")
		uc.dropCopy(ctx, companyID, code)
	}
}

// archiveCopy escribe la copia durable de un registro ya confirmado. Si la escritura falla se
// borra lo que hubiera bajo la clave: una copia ausente es aceptable, una desactualizada no.
func (uc *UseCase) archiveCopy(ctx context.Context, companyID, code string, doc []byte) {
	if uc.archive == nil {
		return
	}
	if _, err := uc.archive.Save(ctx, ArchiveKey(companyID, code), doc, pdfContentType); err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Str("code", code).Msg("archivar PDF")
		uc.dropCopy(ctx, companyID, code)
	}
}

func (uc *UseCase) dropCopy(ctx context.Context, companyID, code string) {
	if uc.archive == nil {
		return
	}
	if err := uc.archive.Delete(ctx, ArchiveKey(companyID, code)); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Str("code", code).Msg("borrar copia archivada")
	}
}

// ArchiveKey ruta de la copia durable: cotizaciones/<empresa>/cotizacion_<codigo>.pdf.
func ArchiveKey(companyID, code string) string {
	return path.Join("cotizaciones", companyID, "cotizacion_"+unsafeKeyChars.ReplaceAllString(code, "_")+".pdf")
}

// ToResponse convierte la entidad a DTO.
func ToResponse(q *entity.Quotation) *dto.QuotationResponse {
	items := make([]dto.QuotationItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, dto.QuotationItemResponse{
			ID:          it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Code:        it.Code,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return &dto.QuotationResponse{
		ID:             q.ID,
		Code:           q.Code,
		Customer:       q.Customer.Name,
		Email:          q.Customer.Email,
		Phone:          q.Customer.Phone,
		Address:        q.Customer.Address,
		Seller:         q.Terms.Seller,
		Date:           q.Terms.Date,
		Validity:       q.Terms.Validity,
		PaymentTerms:   q.Terms.PaymentTerms,
		DeliveryTime:   q.Terms.DeliveryTime,
		Status:         q.Terms.Status,
		LegalNotes:     q.Terms.LegalNotes,
		Observations:   q.Terms.Observations,
		Conditions:     q.Terms.Conditions,
		Signature:      q.Terms.Signature,
		Items:          items,
		Subtotal:       q.Subtotal,
		Discount:       q.Discount,
		TaxRate:        q.TaxRate,
		Total:          q.Total,
		DeliveryStatus: string(q.DeliveryStatus),
		HasDocument:    q.HasDocument(),
		CreatedAt:      q.CreatedAt,
	}
}
