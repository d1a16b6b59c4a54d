package feast

import (
	"context"
	"testing"
)

// TestGrpcClient_GetOnlineFeatures 测试 gRPC 客户端的基本功能
// 注意：这是一个示例测试，实际使用时需要连接真实的 Feast 服务器
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "review_app")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	req := &GetOnlineFeaturesRequest{
		Features: []string{DefaultEngagementFeature},
		EntityRows: []map[string]interface{}{
			{"post_id": int64(1001)},
			{"post_id": int64(1002)},
		},
		Project: "review_app",
	}

	resp, err := client.GetOnlineFeatures(ctx, req)
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}

	if len(resp.FeatureVectors) != 2 {
		t.Errorf("期望 2 个特征向量，实际得到 %d 个", len(resp.FeatureVectors))
	}

	for i, fv := range resp.FeatureVectors {
		if len(fv.Values) == 0 {
			t.Errorf("特征向量 %d 为空", i)
		}
		t.Logf("特征向量 %d: %+v", i, fv.Values)
	}
}

// TestToSDKValue 测试值类型转换
func TestToSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"string", "test"},
		{"int", 100},
		{"int64", int64(100)},
		{"float64", 3.14},
		{"bool", true},
		{"[]byte", []byte("test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := toSDKValue(tt.input); result == nil {
				t.Errorf("转换结果不应该为 nil")
			}
		})
	}
}

// TestFromSDKValue 测试从 SDK 值类型转换，数值统一为 float64
func TestFromSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{"string", "test", "test"},
		{"int64", int64(100), float64(100)},
		{"float64", 3.14, 3.14},
		{"bool_true", true, float64(1)},
		{"bool_false", false, float64(0)},
		{"bytes", []byte("ab"), "ab"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromSDKValue(tt.input); got != tt.want {
				t.Errorf("fromSDKValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
