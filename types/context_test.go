// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/siemens/dnstemplate/types"
)

var _ = Describe("resolved contexts", func() {

	It("is reflexively equal", func() {
		ctx := types.ResolvedContext{
			"web": types.ListValue([]string{"10.0.0.1", "10.0.0.2"}),
			"db":  types.NullValue(),
			"env": types.StringValue("production"),
		}
		Expect(types.Equal(ctx, ctx)).To(BeTrue())
	})

	It("ignores insertion order", func() {
		a := types.ResolvedContext{}
		a["one"] = types.StringValue("1")
		a["two"] = types.StringValue("2")
		b := types.ResolvedContext{}
		b["two"] = types.StringValue("2")
		b["one"] = types.StringValue("1")
		Expect(types.Equal(a, b)).To(BeTrue())
	})

	It("detects differing key sets", func() {
		a := types.ResolvedContext{"one": types.StringValue("1")}
		b := types.ResolvedContext{"one": types.StringValue("1"), "two": types.StringValue("2")}
		Expect(types.Equal(a, b)).To(BeFalse())
		Expect(types.Equal(b, a)).To(BeFalse())
	})

	It("detects a variable changing value", func() {
		a := types.ResolvedContext{"web": types.NullValue()}
		b := types.ResolvedContext{"web": types.ListValue([]string{"1.2.3.4"})}
		Expect(types.Equal(a, b)).To(BeFalse())
	})

	It("keeps Null distinct from an empty list", func() {
		a := types.ResolvedContext{"web": types.NullValue()}
		b := types.ResolvedContext{"web": types.ListValue([]string{})}
		Expect(types.Equal(a, b)).To(BeFalse())
	})

	It("produces template data", func() {
		ctx := types.ResolvedContext{
			"web": types.ListValue([]string{"10.0.0.1"}),
			"db":  types.NullValue(),
		}
		data := ctx.Template()
		Expect(data).To(HaveLen(2))
		Expect(data["web"]).To(Equal([]string{"10.0.0.1"}))
		Expect(data["db"]).To(BeNil())
	})

	It("renders diagnostics with sorted names", func() {
		ctx := types.ResolvedContext{
			"zzz": types.StringValue("last"),
			"aaa": types.ListValue([]string{"10.0.0.1", "2.0.0.2"}),
		}
		Expect(ctx.String()).To(Equal(`{aaa: [10.0.0.1 2.0.0.2], zzz: "last"}`))
	})

})
