package value_test

import (
	"testing"

	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonNameValue_AlphabeticOnly(t *testing.T) {
	pn, err := value.NewPersonNameValue([]string{"Doe^John^Middle^Dr^Jr"})
	require.NoError(t, err)
	assert.Equal(t, vr.PersonName, pn.VR())

	entries := pn.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Doe", entries[0].Alphabetic.FamilyName)
	assert.Equal(t, "John", entries[0].Alphabetic.GivenName)
	assert.Equal(t, "Middle", entries[0].Alphabetic.MiddleName)
	assert.Equal(t, "Dr", entries[0].Alphabetic.NamePrefix)
	assert.Equal(t, "Jr", entries[0].Alphabetic.NameSuffix)
	assert.Equal(t, "Doe^John^Middle^Dr^Jr", pn.String())
}

func TestPersonNameValue_IdeographicAndPhoneticGroups(t *testing.T) {
	raw := "Yamada^Tarou=山田^太郎=やまだ^たろう"
	pn, err := value.NewPersonNameValue([]string{raw})
	require.NoError(t, err)

	entries := pn.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Yamada", entries[0].Alphabetic.FamilyName)
	assert.Equal(t, "山田", entries[0].Ideographic.FamilyName)
	assert.Equal(t, "やまだ", entries[0].Phonetic.FamilyName)
	assert.Equal(t, raw, pn.String())
}

func TestPersonNameValue_MultipleValues(t *testing.T) {
	pn, err := value.NewPersonNameValue([]string{"Doe^John", "Smith^Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Doe^John\\Smith^Jane", pn.String())
}

func TestPersonNameValue_RejectsOverlength(t *testing.T) {
	overlong := make([]byte, 325)
	for i := range overlong {
		overlong[i] = 'A'
	}
	_, err := value.NewPersonNameValue([]string{string(overlong)})
	require.Error(t, err)
}

func TestPersonNameValue_BytesEvenPadded(t *testing.T) {
	pn, err := value.NewPersonNameValue([]string{"Doe^Jon"})
	require.NoError(t, err)
	b := pn.Bytes()
	assert.Equal(t, 0, len(b)%2)
}

func TestPersonNameValue_Equals(t *testing.T) {
	a, _ := value.NewPersonNameValue([]string{"Doe^John"})
	b, _ := value.NewPersonNameValue([]string{"Doe^John"})
	c, _ := value.NewPersonNameValue([]string{"Smith^Jane"})

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
