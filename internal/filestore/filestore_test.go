package filestore

import "testing"

func TestObjectURL(t *testing.T) {
	store, err := New(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "mise",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name       string
		objectPath string
		want       string
	}{
		{
			name:       "avatar path",
			objectPath: "avatars/01J0000000000000000000000.png",
			want:       "http://localhost:9000/mise/avatars/01J0000000000000000000000.png",
		},
		{
			name:       "leading slash trimmed",
			objectPath: "/avatars/a.jpg",
			want:       "http://localhost:9000/mise/avatars/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.ObjectURL(tt.objectPath); got != tt.want {
				t.Errorf("ObjectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvatarPath(t *testing.T) {
	if got := avatarPath("user-1", ".webp"); got != "avatars/user-1.webp" {
		t.Errorf("avatarPath() = %q, want %q", got, "avatars/user-1.webp")
	}
}
