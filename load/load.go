// Package load 拓扑文档读取, 校验和单位换算.
//
// 文档边界使用 mm, m, kPa, m³/h 和 % 等界面单位, 读取后立即换算为 SI 单位.
package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"pipecacu/types"
)

var validate = validator.New()

// LoadString 加载拓扑文档
func LoadString(s string) (*Document, error) {
	return LoadReader(strings.NewReader(s))
}

// LoadFile 加载拓扑文档文件
func LoadFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, types.Wrap(types.KindInvalidDoc, err, "打开拓扑文档失败")
	}
	defer file.Close()
	return LoadReader(file)
}

// LoadReader 解析并校验拓扑文档
func LoadReader(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, types.Wrap(types.KindInvalidDoc, err, "解析拓扑文档失败")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 按结构标签校验文档
func Validate(doc *Document) error {
	if err := validate.Struct(doc); err != nil {
		return types.Wrap(types.KindInvalidDoc, formatValidationError(err), "拓扑文档校验失败")
	}
	return nil
}

func formatValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s 不能为空", fe.Namespace()))
		case "unique":
			msgs = append(msgs, fmt.Sprintf("%s 中 %s 重复", fe.Namespace(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s 取值 %v 不在 [%s] 中", fe.Namespace(), fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s 校验 %s 失败", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
