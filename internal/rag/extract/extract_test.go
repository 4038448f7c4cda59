package extract

import (
	"errors"
	"testing"

	"github.com/chatlet/chatlet/internal/domain/apperrors"
)

func TestFromFile_PlainText(t *testing.T) {
	content, err := FromFile("notes.txt", "text/plain", []byte("  hello\nworld  \n"))
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if content.Text != "hello\nworld" {
		t.Errorf("text got %q, want trimmed content", content.Text)
	}
	if content.Metadata.ContentType != "text/plain" {
		t.Errorf("content type got %q", content.Metadata.ContentType)
	}
	if content.Metadata.WordCount != 2 {
		t.Errorf("word count got %d, want 2", content.Metadata.WordCount)
	}
}

func TestFromFile_Failures(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		data     []byte
		wantKind apperrors.ExtractionKind
	}{
		{
			name:     "Empty_Text_File",
			fileName: "empty.txt",
			mimeType: "text/plain",
			data:     []byte("   \n\t  "),
			wantKind: apperrors.EmptyContent,
		},
		{
			name:     "Invalid_UTF8",
			fileName: "binary.txt",
			mimeType: "text/plain",
			data:     []byte{0xff, 0xfe, 0xfd},
			wantKind: apperrors.ParseFailure,
		},
		{
			name:     "Unsupported_Type",
			fileName: "report.docx",
			mimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			data:     []byte("irrelevant"),
			wantKind: apperrors.UnsupportedType,
		},
		{
			name:     "Garbage_PDF",
			fileName: "broken.pdf",
			mimeType: "application/pdf",
			data:     []byte("this is not a pdf at all"),
			wantKind: apperrors.ParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFile(tt.fileName, tt.mimeType, tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			var xe *apperrors.ExtractionError
			if !errors.As(err, &xe) {
				t.Fatalf("expected ExtractionError, got %T: %v", err, err)
			}
			if xe.Kind != tt.wantKind {
				t.Errorf("kind got %s, want %s", xe.Kind, tt.wantKind)
			}
		})
	}
}

func TestFromFile_ExtensionBeatsMimeType(t *testing.T) {
	// browsers sometimes send application/octet-stream for txt uploads
	content, err := FromFile("notes.TXT", "application/octet-stream", []byte("still plain text"))
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if content.Text != "still plain text" {
		t.Errorf("text got %q", content.Text)
	}
}
