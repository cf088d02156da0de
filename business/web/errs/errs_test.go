package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/powledger/business/web/errs"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Trusted(t *testing.T) {
	t.Log("Given the need to carry a status code with an error.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a trusted error is wrapped.", testID)
		{
			base := errors.New("proof doesn't solve the puzzle")
			err := fmt.Errorf("handler: %w", errs.NewTrusted(base, http.StatusBadRequest))

			if !errs.IsTrusted(err) {
				t.Fatalf("\t%s\tTest %d:\tShould find the trusted error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find the trusted error.", success, testID)

			te := errs.GetTrusted(err)
			if te.Status != http.StatusBadRequest || te.Response().Error != base.Error() {
				t.Fatalf("\t%s\tTest %d:\tShould keep the status and message: %d %q", failed, testID, te.Status, te.Response().Error)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the status and message.", success, testID)

			if !errors.Is(err, base) {
				t.Fatalf("\t%s\tTest %d:\tShould unwrap to the original error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould unwrap to the original error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the error is not trusted.", testID)
		{
			if errs.GetTrusted(errors.New("boom")) != nil {
				t.Fatalf("\t%s\tTest %d:\tShould not find a trusted error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not find a trusted error.", success, testID)
		}
	}
}
