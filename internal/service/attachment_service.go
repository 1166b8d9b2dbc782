package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxAttachmentSize = 10 * 1024 * 1024 // 10MB
	ThumbnailWidth    = 200
	JPEGQuality       = 85
	PresignExpiry     = 15 * time.Minute

	objectPrefix    = "attachments/"
	thumbnailSuffix = "_thumb.jpg"
)

var (
	ErrAttachmentTooLarge        = errors.New("file too large. Maximum size is 10MB")
	ErrAttachmentEmpty           = errors.New("file is empty")
	ErrUnsupportedAttachment     = errors.New("unsupported file type. Supported: PDF, JPEG, PNG, DOC, DOCX, XLS, XLSX")
	ErrNoAttachment              = errors.New("no attachment")
	ErrAttachmentStorageDisabled = errors.New("attachment storage not configured")
)

// AllowedAttachmentTypes maps accepted extensions to content types
var AllowedAttachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AttachmentService stores the RAB file of a budget item and the evidence file of an
// expense item. Without object storage only the file name is recorded.
type AttachmentService struct {
	store   domain.RecordStore
	storage storage.AttachmentRepository
}

// NewAttachmentService creates a new AttachmentService. repo may be nil.
func NewAttachmentService(store domain.RecordStore, repo storage.AttachmentRepository) *AttachmentService {
	return &AttachmentService{store: store, storage: repo}
}

// IsEnabled reports whether files are uploaded to object storage
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateAttachment checks size and extension of an upload
func ValidateAttachment(data []byte, filename string) error {
	if len(data) == 0 {
		return ErrAttachmentEmpty
	}
	if len(data) > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	if _, ok := AllowedAttachmentTypes[strings.ToLower(filepath.Ext(filename))]; !ok {
		return ErrUnsupportedAttachment
	}
	return nil
}

// AttachBudgetFile records the RAB file of a task's budget item, replacing any previous file
func (s *AttachmentService) AttachBudgetFile(ctx context.Context, year int, month time.Month, id, filename string, data []byte) (*domain.BudgetItem, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	if err := ValidateAttachment(data, filename); err != nil {
		return nil, err
	}
	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	task := findTask(tasks, id)
	if task == nil {
		return nil, domain.ErrBudgetItemNotFound
	}
	items, err := s.store.ReadBudget(ctx, year, month)
	if err != nil {
		return nil, err
	}

	ref, err := s.put(ctx, "rab", year, month, id, filename, data)
	if err != nil {
		return nil, err
	}

	item := findBudgetItem(items, id)
	if item == nil {
		item = domain.NewBudgetItem(task)
		items = append(items, item)
	}
	previous := item.FileRAB
	item.FileRAB = ref

	if err := s.store.SaveBudget(ctx, year, month, items); err != nil {
		s.discard(ctx, ref)
		return nil, err
	}
	s.discard(ctx, previous)
	return item, nil
}

// RemoveBudgetFile clears the RAB file of a budget item
func (s *AttachmentService) RemoveBudgetFile(ctx context.Context, year int, month time.Month, id string) (*domain.BudgetItem, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	items, err := s.store.ReadBudget(ctx, year, month)
	if err != nil {
		return nil, err
	}
	item := findBudgetItem(items, id)
	if item == nil {
		return nil, domain.ErrBudgetItemNotFound
	}
	if item.FileRAB == "" {
		return nil, ErrNoAttachment
	}
	previous := item.FileRAB
	item.FileRAB = ""

	if err := s.store.SaveBudget(ctx, year, month, items); err != nil {
		return nil, err
	}
	s.discard(ctx, previous)
	return item, nil
}

// BudgetFileURL returns a temporary download URL for the RAB file of a budget item
func (s *AttachmentService) BudgetFileURL(ctx context.Context, year int, month time.Month, id string) (string, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return "", err
	}
	item := findBudgetItem(s.store.LoadBudget(ctx, year, month), id)
	if item == nil {
		return "", domain.ErrBudgetItemNotFound
	}
	return s.url(ctx, item.FileRAB)
}

// AttachExpenseFile records the evidence file of a task's expense item, replacing any previous file
func (s *AttachmentService) AttachExpenseFile(ctx context.Context, year int, month time.Month, id, filename string, data []byte) (*domain.ExpenseItem, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	if err := ValidateAttachment(data, filename); err != nil {
		return nil, err
	}
	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	task := findTask(tasks, id)
	if task == nil {
		return nil, domain.ErrExpenseItemNotFound
	}
	items, err := s.store.ReadExpenses(ctx, year, month)
	if err != nil {
		return nil, err
	}

	ref, err := s.put(ctx, "bukti", year, month, id, filename, data)
	if err != nil {
		return nil, err
	}

	item := findExpenseItem(items, id)
	if item == nil {
		item = domain.NewExpenseItem(task)
		items = append(items, item)
	}
	previous := item.FileBukti
	item.FileBukti = ref

	if err := s.store.SaveExpenses(ctx, year, month, items); err != nil {
		s.discard(ctx, ref)
		return nil, err
	}
	s.discard(ctx, previous)
	return item, nil
}

// RemoveExpenseFile clears the evidence file of an expense item
func (s *AttachmentService) RemoveExpenseFile(ctx context.Context, year int, month time.Month, id string) (*domain.ExpenseItem, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	items, err := s.store.ReadExpenses(ctx, year, month)
	if err != nil {
		return nil, err
	}
	item := findExpenseItem(items, id)
	if item == nil {
		return nil, domain.ErrExpenseItemNotFound
	}
	if item.FileBukti == "" {
		return nil, ErrNoAttachment
	}
	previous := item.FileBukti
	item.FileBukti = ""

	if err := s.store.SaveExpenses(ctx, year, month, items); err != nil {
		return nil, err
	}
	s.discard(ctx, previous)
	return item, nil
}

// ExpenseFileURL returns a temporary download URL for the evidence file of an expense item
func (s *AttachmentService) ExpenseFileURL(ctx context.Context, year int, month time.Month, id string) (string, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return "", err
	}
	item := findExpenseItem(s.store.LoadExpenses(ctx, year, month), id)
	if item == nil {
		return "", domain.ErrExpenseItemNotFound
	}
	return s.url(ctx, item.FileBukti)
}

// put uploads the file (plus a thumbnail for images) and returns the reference to record.
// Without storage the reference is the cleaned file name.
func (s *AttachmentService) put(ctx context.Context, kind string, year int, month time.Month, id, filename string, data []byte) (string, error) {
	name := SanitizeFileName(filename)
	if !s.IsEnabled() {
		return name, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	objectPath := fmt.Sprintf("%s%s/%d/%02d/%s/%s_%s", objectPrefix, kind, year, int(month), id, uuid.New().String(), name)

	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(data), AllowedAttachmentTypes[ext], int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	if isImage(ext) {
		if err := s.putThumbnail(ctx, objectPath, data); err != nil {
			log.Warn().Err(err).Str("path", objectPath).Msg("Failed to create attachment thumbnail")
		}
	}
	return objectPath, nil
}

func (s *AttachmentService) putThumbnail(ctx context.Context, objectPath string, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > ThumbnailWidth {
		img = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	_, err = s.storage.Upload(ctx, objectPath+thumbnailSuffix, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	return err
}

// discard deletes a stored object and its thumbnail. Plain file names and failures are ignored.
func (s *AttachmentService) discard(ctx context.Context, ref string) {
	if !s.IsEnabled() || !strings.HasPrefix(ref, objectPrefix) {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("path", ref).Msg("Failed to delete attachment")
	}
	if isImage(strings.ToLower(filepath.Ext(ref))) {
		_ = s.storage.Delete(ctx, ref+thumbnailSuffix)
	}
}

func (s *AttachmentService) url(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNoAttachment
	}
	if !s.IsEnabled() || !strings.HasPrefix(ref, objectPrefix) {
		return "", ErrAttachmentStorageDisabled
	}
	return s.storage.GeneratePresignedURL(ctx, ref, PresignExpiry)
}

// SanitizeFileName keeps the base name of an upload and replaces unsafe characters
func SanitizeFileName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" || name == "." {
		return "file"
	}
	return name
}

func isImage(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}
