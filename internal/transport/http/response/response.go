package response

// Resp 统一信封：HTTP 状态恒为 200，业务结果看 code
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

var empty = struct{}{}

// OK 成功响应；nil 数据输出 {} 而不是 null
func OK(data any) Resp {
	if data == nil {
		data = empty
	}
	return Resp{Code: CodeOK, Msg: CodeMsgMap[CodeOK], Data: data}
}

// Error customMsg 为空时用 code 对应的默认文案
func Error(code int, customMsg string) Resp {
	return ErrorWith(code, customMsg, nil)
}

// ErrorWith 失败但仍携带数据，例如同步失败时的结果摘要
func ErrorWith(code int, customMsg string, data any) Resp {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	if data == nil {
		data = empty
	}
	return Resp{Code: code, Msg: msg, Data: data}
}
