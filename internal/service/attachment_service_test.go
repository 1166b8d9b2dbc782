package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		png.Encode(&buf, img)
	} else {
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	return buf.Bytes()
}

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{"pdf", []byte("%PDF-1.4"), "rab.pdf", nil},
		{"upper case extension", []byte("x"), "BUKTI.JPG", nil},
		{"xlsx", []byte("x"), "rincian.xlsx", nil},
		{"empty", nil, "rab.pdf", ErrAttachmentEmpty},
		{"too large", make([]byte, MaxAttachmentSize+1), "rab.pdf", ErrAttachmentTooLarge},
		{"unsupported", []byte("x"), "script.exe", ErrUnsupportedAttachment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, ValidateAttachment(tt.data, tt.filename))
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "RAB_Pelatihan.pdf", SanitizeFileName("RAB Pelatihan.pdf"))
	assert.Equal(t, "bukti.png", SanitizeFileName(`C:\Users\guru\bukti.png`))
	assert.Equal(t, "passwd", SanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "file", SanitizeFileName("///"))
}

func TestAttachmentService_WithoutStorageRecordsFileName(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	svc := NewAttachmentService(store, nil)

	item, err := svc.AttachBudgetFile(context.Background(), 2025, time.September, "T1", "RAB Pelatihan.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "RAB_Pelatihan.pdf", item.FileRAB)

	_, err = svc.BudgetFileURL(context.Background(), 2025, time.September, "T1")
	assert.ErrorIs(t, err, ErrAttachmentStorageDisabled)
}

func TestAttachmentService_AttachBudgetFile_UploadsObject(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)

	item, err := svc.AttachBudgetFile(context.Background(), 2025, time.September, "T1", "rab.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(item.FileRAB, "attachments/rab/2025/09/T1/"))
	assert.True(t, strings.HasSuffix(item.FileRAB, "_rab.pdf"))
	assert.Equal(t, []byte("%PDF"), repo.Objects[item.FileRAB])
	assert.Equal(t, "application/pdf", repo.Types[item.FileRAB])

	stored := store.Budgets[domain.Period{Year: 2025, Month: time.September}]
	require.Len(t, stored, 1)
	assert.Equal(t, item.FileRAB, stored[0].FileRAB)

	url, err := svc.BudgetFileURL(context.Background(), 2025, time.September, "T1")
	require.NoError(t, err)
	assert.Contains(t, url, item.FileRAB)
}

func TestAttachmentService_AttachExpenseImage_CreatesThumbnail(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)

	item, err := svc.AttachExpenseFile(context.Background(), 2025, time.September, "T1", "nota.png", createTestImage(800, 400, "png"))
	require.NoError(t, err)

	thumb, ok := repo.Objects[item.FileBukti+"_thumb.jpg"]
	require.True(t, ok, "thumbnail uploaded")
	img, _, err := image.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestAttachmentService_ReplaceDeletesPreviousObject(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)
	ctx := context.Background()

	first, err := svc.AttachExpenseFile(ctx, 2025, time.September, "T1", "a.jpg", createTestImage(100, 100, "jpeg"))
	require.NoError(t, err)
	firstPath := first.FileBukti

	second, err := svc.AttachExpenseFile(ctx, 2025, time.September, "T1", "b.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.NotContains(t, repo.Objects, firstPath)
	assert.NotContains(t, repo.Objects, firstPath+"_thumb.jpg")
	assert.Contains(t, repo.Objects, second.FileBukti)
}

func TestAttachmentService_RemoveFile(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)
	ctx := context.Background()

	item, err := svc.AttachBudgetFile(ctx, 2025, time.September, "T1", "rab.pdf", []byte("%PDF"))
	require.NoError(t, err)
	path := item.FileRAB

	item, err = svc.RemoveBudgetFile(ctx, 2025, time.September, "T1")
	require.NoError(t, err)
	assert.Empty(t, item.FileRAB)
	assert.NotContains(t, repo.Objects, path)

	_, err = svc.RemoveBudgetFile(ctx, 2025, time.September, "T1")
	assert.ErrorIs(t, err, ErrNoAttachment)

	_, err = svc.RemoveExpenseFile(ctx, 2025, time.September, "T1")
	assert.ErrorIs(t, err, domain.ErrExpenseItemNotFound)
}

func TestAttachmentService_Errors(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.AddTask(2025, time.September, pelatihanTask())
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)
	ctx := context.Background()

	_, err := svc.AttachBudgetFile(ctx, 2025, time.September, "ghost", "rab.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrBudgetItemNotFound)

	repo.UploadErr = assert.AnError
	_, err = svc.AttachBudgetFile(ctx, 2025, time.September, "T1", "rab.pdf", []byte("x"))
	assert.ErrorIs(t, err, assert.AnError)

	repo.UploadErr = nil
	store.SaveExpensesErr = domain.ErrStorageWrite
	_, err = svc.AttachExpenseFile(ctx, 2025, time.September, "T1", "nota.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrStorageWrite)
	assert.Empty(t, repo.Objects, "uploaded object is rolled back")
}

func TestAttachmentService_UnreadableCollectionsAreNotOverwritten(t *testing.T) {
	kv, store := seededKVStore(t)
	kv.GetErrors["budget_2025_8"] = errConnectionReset
	kv.GetErrors["expenses_2025_8"] = errConnectionReset
	repo := testutil.NewMockAttachmentRepository()
	svc := NewAttachmentService(store, repo)
	ctx := context.Background()

	_, err := svc.AttachBudgetFile(ctx, 2025, time.September, "T1", "rab.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	_, err = svc.AttachExpenseFile(ctx, 2025, time.September, "T1", "nota.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	_, err = svc.RemoveBudgetFile(ctx, 2025, time.September, "T1")
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	_, err = svc.RemoveExpenseFile(ctx, 2025, time.September, "T1")
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	assert.Empty(t, repo.Objects, "nothing is uploaded when the item cannot be read")

	delete(kv.GetErrors, "budget_2025_8")
	delete(kv.GetErrors, "expenses_2025_8")
	assert.Len(t, store.LoadBudget(ctx, 2025, time.September), 2)
	assert.Len(t, store.LoadExpenses(ctx, 2025, time.September), 1)
}
