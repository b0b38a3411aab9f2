package profile

import "testing"

func TestFormatCode(t *testing.T) {
	cases := []struct {
		prefix string
		seq    int64
		want   string
	}{
		{"STU", 1, "STU001"},
		{"STU", 42, "STU042"},
		{"TCH", 7, "TCH007"},
		{"ADM", 1000, "ADM1000"},
	}
	for _, tc := range cases {
		if got := FormatCode(tc.prefix, tc.seq); got != tc.want {
			t.Errorf("FormatCode(%q, %d) = %q, want %q", tc.prefix, tc.seq, got, tc.want)
		}
	}
}

func TestValidPermissions(t *testing.T) {
	if !ValidPermissions([]string{PermViewDashboard, PermManageStudents}) {
		t.Error("known permissions rejected")
	}
	if !ValidPermissions(nil) {
		t.Error("empty list rejected")
	}
	if ValidPermissions([]string{PermViewDashboard, "MANAGE_EVERYTHING"}) {
		t.Error("unknown permission accepted")
	}
}

func TestHasPermission(t *testing.T) {
	admin := &Admin{Permissions: []string{PermManageNotices}}
	if !HasPermission(admin, PermManageNotices) {
		t.Error("granted permission denied")
	}
	if HasPermission(admin, PermSystemSettings) {
		t.Error("ungranted permission allowed")
	}

	super := &Admin{IsSuperAdmin: true}
	if !HasPermission(super, PermSystemSettings) {
		t.Error("super admin denied")
	}
}
