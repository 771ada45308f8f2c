package service

import "errors"

// ErrValidation 输入不合法或不完整，调用方修正后重试
var ErrValidation = errors.New("validation failed")

// ErrUpstream LLM 服务调用失败（重试耗尽后仍然失败）
var ErrUpstream = errors.New("llm provider error")
