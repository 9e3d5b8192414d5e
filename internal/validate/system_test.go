package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRegistryKey(t *testing.T) {
	v := newTestValidators(t)

	valid := []string{
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`,
		`SOFTWARE\Microsoft\Windows\CurrentVersion`,
		`HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion`,
		`HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion`,
		`HKCU\Software\Microsoft\Windows\CurrentVersion\Run`,
		`\HKU\S-1-5-21-1004336348-1177238915-682003330-512\Software`,
		`hklm\system\currentcontrolset\services`,
	}
	for _, k := range valid {
		assert.True(t, v.IsRegistryKey(k), k)
	}

	invalid := []string{
		"",
		"This\nIs\\aRegistryKey",
		`^HKLM\\Software\\.*$`,
		`HKLM\Software\(?:Foo|Bar)`,
		`HKLM\Software\\d{2,4}`,
		"hello world",
	}
	for _, k := range invalid {
		assert.False(t, v.IsRegistryKey(k), k)
	}
}

func TestIsSQL(t *testing.T) {
	v := newTestValidators(t)

	valid := []string{
		"SELECT * FROM xyz",
		"SELECT * FROM xyz WHERE x LIKE '%y%';",
		"INSERT INTO Country(CountryID,CountryName) VALUES (1,'United States')",
		"CREATE TABLE table_name (\n        column1 INTEGER,\n        column2 VARCHAR2,\n        column3 INTEGE);",
		"DROP TABLE users;",
		"update accounts set balance = 0",
	}
	for _, q := range valid {
		assert.True(t, v.IsSQL(q), q)
	}

	invalid := []string{
		"",
		"hello world",
		"Selection of the finest items",
		"settings were updated",
	}
	for _, q := range invalid {
		assert.False(t, v.IsSQL(q), q)
	}
}

func TestIsRegex(t *testing.T) {
	v := newTestValidators(t)

	valid := []string{
		`^\d{3}-\d{4}$`,
		`[a-z]+@[a-z]+`,
		`(foo|bar)`,
		`(?<=user=)\w+`,
		`foo(?!bar)`,
		`[[:digit:]]+`,
		`a{2,5}`,
		`^https?$`,
		`\w+\.exe$`,
	}
	for _, r := range valid {
		assert.True(t, v.IsRegex(r), r)
	}

	invalid := []string{
		"",
		"hello",
		"US$",
		`C:\data\backup`,
		`HKLM\Software\Microsoft`,
		`^(unclosed|`,
		`[unclosed`,
		"{1}",
		"https://example.com/a(b|c)",
	}
	for _, r := range invalid {
		assert.False(t, v.IsRegex(r), r)
	}
}

func TestIsFilePath(t *testing.T) {
	v := newTestValidators(t)

	valid := []string{
		`C:\Windows\System32\kernel32.dll`,
		`C:\Program Files\App\app.exe`,
		`c:/temp/dropper.bin`,
		`\\server\share\file.txt`,
		"/usr/bin/env",
		"/etc/passwd",
		"~/.ssh/authorized_keys",
		"./run.sh",
		"../lib/libevil.so",
		"src/main.go",
	}
	for _, p := range valid {
		assert.True(t, v.IsFilePath(p), p)
	}

	invalid := []string{
		"",
		"http://example.com/a.txt",
		"hello world",
		"1/2.5",
		"12/05/2020",
		"/",
		"// comment",
		`C:\bad|name`,
		"file.txt",
	}
	for _, p := range invalid {
		assert.False(t, v.IsFilePath(p), p)
	}
}
