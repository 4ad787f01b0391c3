package repository

import (
	"errors"
	"fmt"

	"github.com/leon37/Hamhama/internal/model"
	"gorm.io/gorm"
)

// translate 把 gorm 的错误转换为业务错误
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", model.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", model.ErrConflict, what)
	}
	return err
}
