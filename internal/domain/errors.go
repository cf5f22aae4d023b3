package domain

import "errors"

// ErrNotFound 必须存在的记录查不到（如演示客户、按 id 取商品）
var ErrNotFound = errors.New("recurso no encontrado")
