// Package files guarda adjuntos en un directorio administrado del disco local.
package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jhoicas/controle-estoque/internal/application/ports"
)

var _ ports.FileStore = (*LocalStore)(nil)

// LocalStore copia archivos a dir con prefijo uuid para evitar colisiones de nombre.
type LocalStore struct {
	dir string
}

// NewLocalStore crea dir si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("files: crear %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir directorio administrado.
func (s *LocalStore) Dir() string { return s.dir }

// Save copia source como <uuid>_<nombre> y devuelve la ruta nueva.
func (s *LocalStore) Save(source string) (string, error) {
	in, err := os.Open(source)
	if err != nil {
		return "", fmt.Errorf("files: abrir %s: %w", source, err)
	}
	defer in.Close()

	dest := filepath.Join(s.dir, uuid.NewString()+"_"+filepath.Base(source))
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("files: crear %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("files: copiar %s: %w", source, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("files: cerrar %s: %w", dest, err)
	}
	return dest, nil
}

// Exists indica si path es un archivo regular.
func (s *LocalStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Delete elimina path; un archivo ya ausente no es error.
func (s *LocalStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("files: eliminar %s: %w", path, err)
	}
	return nil
}
