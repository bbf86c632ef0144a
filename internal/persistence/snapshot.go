// Package persistence serializa o AppState inteiro como um único documento
// JSON sob uma única chave, com migração aditiva no load: campos ausentes no
// snapshot recebem o valor do estado padrão.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotStore é o slot chave-valor onde vive o snapshot serializado.
// Load devolve (nil, nil) quando ainda não existe snapshot salvo.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// FileStore guarda o snapshot em um arquivo JSON local (backend padrão)
type FileStore struct {
	path string
}

// NewFileStore cria o backend de arquivo, garantindo o diretório
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("caminho do snapshot vazio")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("erro criando diretório do snapshot: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro lendo snapshot: %w", err)
	}
	return data, nil
}

// Save escreve em arquivo temporário e renomeia, para nunca deixar um
// snapshot truncado no disco
func (f *FileStore) Save(_ context.Context, data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("erro escrevendo snapshot temporário: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("erro substituindo snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("diretório do snapshot inacessível: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}
