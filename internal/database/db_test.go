package database

import "testing"

func TestBuildDSN(t *testing.T) {
	cases := []struct {
		name string
		pass string
		want string
	}{
		{
			name: "with password",
			pass: "pw",
			want: "app:pw@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			name: "empty password omits the colon",
			pass: "",
			want: "app@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true&loc=UTC",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildDSN("app", tc.pass, "db", "3306", "booking")
			if got != tc.want {
				t.Fatalf("buildDSN = %q, want %q", got, tc.want)
			}
		})
	}
}
