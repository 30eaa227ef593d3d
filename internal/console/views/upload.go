package views

import (
	"context"
	"strconv"
	"time"
)

// Upload sends a local log file to the backend for ingestion.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to log file", a.out)
	if err != nil {
		return err
	}

	printLine(a.out, "Uploading %s ...", path)
	resp, err := a.backend.UploadFile(ctx, path)
	if err != nil {
		printError(a.out, "Upload failed: %v", err)
		return err
	}

	printSuccess(a.out, "%s: %d documents indexed", resp.Filename, resp.DocumentsIndexed)
	if resp.Message != "" {
		printLine(a.out, "%s", resp.Message)
	}
	return nil
}

// Files lists the upload history kept by the backend.
func (a *App) Files(ctx context.Context) error {
	files, err := a.backend.Files(ctx)
	if err != nil {
		printError(a.out, "Failed to list files: %v", err)
		return err
	}

	if len(files) == 0 {
		printWarn(a.out, "No files uploaded yet")
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.Filename,
			strconv.FormatInt(f.Size, 10),
			strconv.Itoa(f.DocumentsCount),
			f.Type,
			f.UploadTime.Local().Format(time.DateTime),
		})
	}
	renderTable(a.out, []string{"Filename", "Size", "Documents", "Type", "Uploaded"}, rows)
	return nil
}
