package response

import "net/http"

// 面向页面的提示文案（西语，与静态页面一致）
const (
	MsgUnauthorized   = "No autenticado"
	MsgForbidden      = "Acceso denegado"
	MsgBadCredentials = "Credenciales inválidas"
	MsgNotFound       = "Recurso no encontrado"
	MsgBadRequest     = "Solicitud inválida"
	MsgServerError    = "Error interno del servidor"
	MsgTooMany        = "Demasiadas solicitudes"
	MsgBusy           = "Servidor ocupado"
	MsgTimeout        = "Tiempo de espera agotado"
	MsgTooLarge       = "Cuerpo de la solicitud demasiado grande"
)

// StatusMsgMap HTTP 状态码 → 默认文案
var StatusMsgMap = map[int]string{
	http.StatusBadRequest:            MsgBadRequest,
	http.StatusUnauthorized:          MsgUnauthorized,
	http.StatusForbidden:             MsgForbidden,
	http.StatusNotFound:              MsgNotFound,
	http.StatusRequestEntityTooLarge: MsgTooLarge,
	http.StatusTooManyRequests:       MsgTooMany,
	http.StatusInternalServerError:   MsgServerError,
	http.StatusServiceUnavailable:    MsgBusy,
	http.StatusGatewayTimeout:        MsgTimeout,
}
