package kafka

import (
	"fmt"
	"strconv"
	"time"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据，只包含发生变化的列
	Old []map[string]interface{} `json:"old"`

	// 字段类型元数据
	SqlType   map[string]int    `json:"sqlType"`   // JDBC 类型 ID
	MysqlType map[string]string `json:"mysqlType"` // MySQL 类型描述
}

// OldRow 第 i 行变更前的列，非 UPDATE 时为 nil
func (m *CanalMessage) OldRow(i int) map[string]interface{} {
	if m.Type != UPDATE || i >= len(m.Old) {
		return nil
	}
	return m.Old[i]
}

// Changed 第 i 行的 column 是否在本次 UPDATE 中变化
func (m *CanalMessage) Changed(i int, column string) bool {
	old := m.OldRow(i)
	if old == nil {
		return false
	}
	_, ok := old[column]
	return ok
}

// Canal flatMessage 的列值均为字符串，NULL 为 nil

func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func StrToUint64(v interface{}) uint64 {
	n, _ := strconv.ParseUint(StrToString(v), 10, 64)
	return n
}

func StrToInt(v interface{}) int {
	n, _ := strconv.Atoi(StrToString(v))
	return n
}

func StrToBool(v interface{}) bool {
	switch StrToString(v) {
	case "1", "true":
		return true
	}
	return false
}

func StrToDateTime(v interface{}) time.Time {
	t, err := time.ParseInLocation(time.DateTime, StrToString(v), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
