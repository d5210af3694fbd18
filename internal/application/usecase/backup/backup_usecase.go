package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const Folder = "backups/database"

var tracer = otel.Tracer("backup_usecase")

// DumpFunc writes a database dump for dsn into w.
type DumpFunc func(ctx context.Context, dsn string, w io.Writer) error

// PgDump shells out to pg_dump in custom format.
func PgDump(ctx context.Context, dsn string, w io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+dsn, "--format=c")
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w: %s", err, stderr.String())
	}
	return nil
}

type BackupUseCase struct {
	dsn      string
	dump     DumpFunc
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

func NewBackupUseCase(dsn string, dump DumpFunc, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		dsn:      dsn,
		dump:     dump,
		uploader: uploader,
		logger:   log,
		now:      time.Now,
	}
}

type BackupOutput struct {
	PublicID string
	URL      string
	Size     int
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	ctx, span := tracer.Start(ctx, "DatabaseBackup")
	defer span.End()

	if uc.uploader == nil {
		return nil, apperror.NewStoreUnavailable("asset storage is not configured", nil)
	}
	if uc.dsn == "" {
		return nil, apperror.NewInternal("database DSN is not configured", errors.New("empty dsn"))
	}

	uc.logger.Info("Starting database backup")
	var out bytes.Buffer
	if err := uc.dump(ctx, uc.dsn, &out); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("database dump failed", err)
	}

	publicID := fmt.Sprintf("backup-%s.dump", uc.now().UTC().Format("2006-01-02_15-04-05"))
	url, err := uc.uploader.Upload(ctx, bytes.NewReader(out.Bytes()), Folder, publicID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewStoreUnavailable("failed to upload backup", err)
	}

	uc.logger.Info("Database backup uploaded",
		zap.String("url", url),
		zap.String("public_id", publicID),
		zap.Int("bytes", out.Len()),
	)
	return &BackupOutput{PublicID: publicID, URL: url, Size: out.Len()}, nil
}
