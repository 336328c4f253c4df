package embedded

import (
	"testing"
	"testing/fstest"
)

func initTestFS(t *testing.T) {
	t.Helper()
	Init(fstest.MapFS{
		"data/scene.yaml": {Data: []byte("counts:\n  photos: 3\n")},
		"data/extra.yaml": {Data: []byte("x: 1\n")},
	})
	t.Cleanup(func() { Init(nil) })
}

// TestNotInitialized 未初始化时所有访问返回错误
func TestNotInitialized(t *testing.T) {
	Init(nil)
	if IsInitialized() {
		t.Fatal("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile(SceneConfigPath); err != errNotInitialized {
		t.Errorf("ReadFile err = %v", err)
	}
	if _, err := Open(SceneConfigPath); err != errNotInitialized {
		t.Errorf("Open err = %v", err)
	}
	if _, err := Glob("data/*.yaml"); err != errNotInitialized {
		t.Errorf("Glob err = %v", err)
	}
	if Exists(SceneConfigPath) {
		t.Error("Exists() should be false before Init()")
	}
	if SceneDefaults() != nil {
		t.Error("SceneDefaults() should be nil before Init()")
	}
}

// TestReadFile 读取与路径规范化
func TestReadFile(t *testing.T) {
	initTestFS(t)

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"data/scene.yaml", false},
		{"./data/scene.yaml", false},
		{"data/missing.yaml", true},
		{"assets/scene.yaml", true},
	}
	for _, tt := range tests {
		_, err := ReadFile(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ReadFile(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

// TestInvalidPrefix 错误信息包含规范化后的路径
func TestInvalidPrefix(t *testing.T) {
	initTestFS(t)
	_, err := Open("./invalid/path.png")
	if err == nil || err.Error() != "unknown resource path prefix: invalid/path.png (must start with 'data/')" {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestGlobAndDefaults 匹配文件并读取默认场景配置
func TestGlobAndDefaults(t *testing.T) {
	initTestFS(t)

	matches, err := Glob("data/*.yaml")
	if err != nil || len(matches) != 2 {
		t.Errorf("Glob = %v, %v", matches, err)
	}
	if !Exists("data/extra.yaml") {
		t.Error("Exists(data/extra.yaml) = false")
	}
	if string(SceneDefaults()) != "counts:\n  photos: 3\n" {
		t.Errorf("SceneDefaults() = %q", SceneDefaults())
	}
}
