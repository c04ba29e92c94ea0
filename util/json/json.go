package json

import jsoniter "github.com/json-iterator/go"

// Cjson 全局json编解码器
var Cjson = jsoniter.ConfigCompatibleWithStandardLibrary
