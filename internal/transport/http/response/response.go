package response

// Message 除目录接口外，所有 JSON 响应都是 {"message": "..."}
type Message struct {
	Message string `json:"message"`
}

func Msg(s string) Message { return Message{Message: s} }

// Error 按状态码取默认文案；customMsg 非空时覆盖
func Error(status int, customMsg string) Message {
	if customMsg != "" {
		return Msg(customMsg)
	}
	if m, ok := StatusMsgMap[status]; ok {
		return Msg(m)
	}
	return Msg(MsgServerError)
}
