// RPC辅助工具，为不依赖protobuf生成代码的服务提供JSON编解码
package rpcutil

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec 基于encoding/json的connect编解码器
// 功能：以"json"为名替换connect内置的protojson编解码器，使普通Go结构体可以作为RPC消息
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// HandlerOptions 服务端默认选项
func HandlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{connect.WithCodec(JSONCodec{})}
}

// ClientOptions 客户端默认选项
func ClientOptions() []connect.ClientOption {
	return []connect.ClientOption{connect.WithCodec(JSONCodec{})}
}
